// cmd/pairgen/main.go
package main

import (
	"github.com/quim0/nvbio-benchmarks/internal/appshell"
	"github.com/quim0/nvbio-benchmarks/internal/genapp"
)

func main() { appshell.Main(genapp.RunContext) }
