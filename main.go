package main

import "github.com/reto140/reto140-api/cmd"

func main() {
	cmd.Execute()
}
