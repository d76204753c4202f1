package main

import "github.com/chrisdamba/foodsite/cmd"

func main() {
	cmd.Execute()
}
