package main

import "foodhub/food-svc/cmd"

func main() {
	cmd.Execute()
}
