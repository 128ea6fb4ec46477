package main

import "github.com/mmynk/salonbook/internal/cli"

func main() {
	cli.Execute()
}
