// Package main is the entry point for the vartree settings editor.
package main

func main() {
	Execute()
}
