package main

import "github.com/Rorical/RoriDocs/cmd"

func main() {
	cmd.Execute()
}
