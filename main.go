package main

import "github.com/Alijeyrad/clinica_backend/cmd"

func main() {
	cmd.Execute()
}
