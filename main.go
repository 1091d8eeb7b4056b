package main

import "github.com/Manu343726/toyasm/cmd"

func main() {
	cmd.Execute()
}
