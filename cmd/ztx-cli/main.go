package main

import "zetrix-gateway/cmd/ztx-cli/cmd"

func main() {
	cmd.Execute()
}
