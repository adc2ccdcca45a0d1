package outputproviders

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/tenantkit/tenantkit/internal/jq"
	"github.com/tenantkit/tenantkit/internal/message"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/types"
)

type JsonFileProvider struct {
	types.OutputProvider
	OutputPath string
	FileName   string
	JqFilter   string
}

func NewJsonFileProvider(opts []*types.Option) types.OutputProvider {
	return &JsonFileProvider{
		OutputPath: options.Value(options.OutputOpt.Name, opts),
		FileName:   options.Value(options.FileNameOpt.Name, opts),
		JqFilter:   options.Value(options.JqOpt.Name, opts),
	}
}

func (fp *JsonFileProvider) Write(result types.Result) error {
	if _, ok := result.Data.(types.MarkdownTable); ok {
		slog.Debug("JSON provider is skipping markdown table output")
		return nil
	}

	filename := result.Filename
	if filename == "" {
		filename = fp.FileName
	}
	if filename == "" {
		filename = DefaultFileName(result.Module, "json")
	}
	fullpath := GetFullPath(ForceExtension(filename, "json"), fp.OutputPath)

	if err := EnsureDir(fullpath); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return err
	}

	if fp.JqFilter != "" {
		data, err = jq.PerformJqQuery(data, fp.JqFilter)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(fullpath, append(data, '\n'), 0644); err != nil {
		return err
	}

	message.Success("Output written to %s", fullpath)

	return nil
}
