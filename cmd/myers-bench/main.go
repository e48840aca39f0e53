// cmd/myers-bench/main.go
package main

import (
	"github.com/quim0/nvbio-benchmarks/internal/app"
	"github.com/quim0/nvbio-benchmarks/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
