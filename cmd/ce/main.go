package main

import "os"

func main() {
	os.Exit(RunApp(os.Args[1:]))
}
