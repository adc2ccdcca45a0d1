package outputproviders

import (
	"log/slog"
	"os"

	"github.com/tenantkit/tenantkit/internal/logs"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/types"
)

type MarkdownFileProvider struct {
	types.OutputProvider
	OutputPath string
	FileName   string
}

func NewMarkdownFileProvider(opts []*types.Option) types.OutputProvider {
	return &MarkdownFileProvider{
		OutputPath: options.Value(options.OutputOpt.Name, opts),
		FileName:   options.Value(options.FileNameOpt.Name, opts),
	}
}

func (fp *MarkdownFileProvider) Write(result types.Result) error {
	// Result.Data needs to be of type MarkdownTable for this provider to work
	table, ok := result.Data.(types.MarkdownTable)
	if !ok {
		slog.Debug("Markdown provider is skipping non-table output")
		return nil
	}

	filename := result.Filename
	if filename == "" {
		filename = fp.FileName
	}
	if filename == "" {
		filename = DefaultFileName(result.Module, "md")
	}
	fullpath := GetFullPath(ForceExtension(filename, "md"), fp.OutputPath)

	if err := EnsureDir(fullpath); err != nil {
		return err
	}

	file, err := os.OpenFile(fullpath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.WriteString(table.ToString() + "\n\n"); err != nil {
		return err
	}

	logs.ConsoleLogger().Info("Markdown table written", "path", fullpath)
	return nil
}
