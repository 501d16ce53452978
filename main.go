package main

import "github.com/arthurssouza42/fit/cmd/fit"

func main() {
	fit.Execute()
}
