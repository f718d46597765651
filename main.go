package main

import "github.com/RGgreenbhm/HomeTeam-Navigator-sub003/cmd"

func main() {
	cmd.Execute()
}
