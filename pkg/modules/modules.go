package modules

import (
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/types"
)

const (
	Intune    types.Platform = "intune"
	Entra     types.Platform = "entra"
	Power     types.Platform = "power"
	Universal types.Platform = "universal"
)

func GetPlatformFromString(platform string) types.Platform {
	switch platform {
	case "intune":
		return Intune
	case "entra":
		return Entra
	case "power":
		return Power
	case "universal":
		return Universal
	default:
		return ""
	}
}

type Metadata struct {
	Id          string
	Name        string
	Description string
	Platform    types.Platform
	Category    string
	Authors     []string
	References  []string
}

type Module interface {
	Invoke() error
	GetOutputProviders() []types.OutputProvider
}

type Run struct {
	Data chan types.Result
}

func NewRun() Run {
	return Run{Data: make(chan types.Result)}
}

type BaseModule struct {
	Module
	Metadata
	Options         []*types.Option
	OutputProviders []types.OutputProvider
	Run             Run
}

func (m *BaseModule) Invoke() error {
	panic("not implemented")
}

func (m *BaseModule) GetOptionByName(name string) *types.Option {
	return options.GetOptionByName(name, m.Options)
}

func (m *BaseModule) AddOption(option types.Option) {
	m.Options = append(m.Options, &option)
}

func (m *BaseModule) MakeResult(data interface{}, opts ...types.ResultOption) types.Result {
	return types.NewResult(m.Platform, m.Id, data, opts...)
}

func (m *BaseModule) GetOutputProviders() []types.OutputProvider {
	return m.OutputProviders
}

func (m *BaseModule) ConfigureOutputProviders(providers []func(options []*types.Option) types.OutputProvider) {
	for _, p := range providers {
		m.OutputProviders = append(m.OutputProviders, p(m.Options))
	}
}

func RenderOutputProviders(providers []func(options []*types.Option) types.OutputProvider, opts []*types.Option) []types.OutputProvider {
	op := []types.OutputProvider{}
	for _, p := range providers {
		op = append(op, p(opts))
	}

	return op
}
