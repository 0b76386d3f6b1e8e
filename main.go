package main

import "github.com/vibast-solutions/lib-go-stripe/cmd"

func main() {
	cmd.Execute()
}
