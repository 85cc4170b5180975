package main

import "github.com/varalys/diffgate/cmd/diffgate"

func main() {
	diffgate.Execute()
}
