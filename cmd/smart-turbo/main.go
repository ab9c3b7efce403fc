// Command smart-turbo is the command-line client for the Smart Turbo
// load-testing platform.
package main

import "github.com/rambozzang/smart-turbo-cli/cmd/smart-turbo/cmd"

func main() {
	cmd.Execute()
}
