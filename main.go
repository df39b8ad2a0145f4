package main

import "yatube/service"

func main() {
	service.Execute()
}
