package main

import "deltavalue/cli"

func main() {
	cli.Execute()
}
