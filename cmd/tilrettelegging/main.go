// Command tilrettelegging manages student accommodation records.
package main

import "github.com/mesh-intelligence/tilrettelegging/internal/cli"

func main() {
	cli.Execute()
}
