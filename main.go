package main

import "roboadvisor_backend/cmd"

func main() {
	cmd.Execute()
}
