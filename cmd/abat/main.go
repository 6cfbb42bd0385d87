// Command abat prints the charge and health of a Mac's battery.
package main

import "github.com/cptspacemanspiff/abat/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
