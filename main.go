package main

import "github.com/nekruzvatanshoev/shipcalc/pkg/cmd"

func main() {
	cmd.Execute()
}
