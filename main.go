// Package main is the entry point for the fastai API and its tooling.
package main

import "fastai/src/app/cli"

func main() {
	cli.Main()
}
