package cmd

// import modules so their init() functions are called

import (
	_ "github.com/tenantkit/tenantkit/pkg/modules/assess"
	_ "github.com/tenantkit/tenantkit/pkg/modules/entra"
	_ "github.com/tenantkit/tenantkit/pkg/modules/intune"
	_ "github.com/tenantkit/tenantkit/pkg/modules/power"
)
