// Command rosterctl imports, exports and inspects the roster of a running server.
package main

import "github.com/alimgiray/roster/cmd/rosterctl/cmd"

func main() {
	cmd.Execute()
}
