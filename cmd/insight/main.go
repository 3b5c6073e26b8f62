package main

import "github.com/mvp-joe/solution-insight/internal/cli"

func main() {
	cli.Execute()
}
