package main

import "github.com/textguard/textguard/cmd/textguard"

func main() { textguard.Execute() }
