package main

import (
	"github.com/tenantkit/tenantkit/cmd"
)

func main() {
	cmd.Execute()
}
