package main

import "github.com/qualab-dev/qualab/pkg/cli"

func main() {
	cli.Execute()
}
