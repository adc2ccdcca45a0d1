package outputproviders

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/tenantkit/tenantkit/internal/message"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/types"
)

type CsvFileProvider struct {
	types.OutputProvider
	OutputPath string
	FileName   string
}

func NewCsvFileProvider(opts []*types.Option) types.OutputProvider {
	return &CsvFileProvider{
		OutputPath: options.Value(options.OutputOpt.Name, opts),
		FileName:   options.Value(options.FileNameOpt.Name, opts),
	}
}

// Write serializes export rows or test results to a CSV file. Every row in
// the file carries the full header union; columns a row does not have are
// back-filled with the empty string so the file is never ragged.
func (fp *CsvFileProvider) Write(result types.Result) error {
	rows, err := toExportRows(result.Data)
	if err != nil {
		return err
	}

	filename := result.Filename
	if filename == "" {
		filename = fp.FileName
	}
	if filename == "" {
		filename = DefaultFileName(result.Module, "csv")
	}
	fullpath := GetFullPath(ForceExtension(filename, "csv"), fp.OutputPath)

	if err := EnsureDir(fullpath); err != nil {
		return err
	}

	file, err := os.Create(fullpath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	headers := rows.Headers()
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, row := range rows {
		record := make([]string, len(headers))
		for i, header := range headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	message.Success("Output written to %s (%d rows)", fullpath, len(rows))

	return nil
}

func toExportRows(data interface{}) (types.ExportRows, error) {
	switch v := data.(type) {
	case types.ExportRows:
		return v, nil
	case []types.ExportRow:
		return types.ExportRows(v), nil
	case types.Report:
		return reportRows(v), nil
	case *types.Report:
		return reportRows(*v), nil
	default:
		return nil, fmt.Errorf("incoming result 'Data' not CSV-exportable, received %T", data)
	}
}

func reportRows(report types.Report) types.ExportRows {
	rows := make(types.ExportRows, 0, len(report.Results))
	for _, result := range report.Results {
		rows = append(rows, types.ExportRow{
			"Category":  result.Category,
			"Test":      result.Name,
			"Status":    string(result.Status),
			"Details":   result.Details,
			"Timestamp": result.Timestamp.Format(time.RFC3339),
		})
	}
	return rows
}
