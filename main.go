/*
Copyright (c) 2026 moyaru <rbffo@icloud.com>
*/

package main

import "github.com/MOYARU/cspissues/cmd"

func main() {
	cmd.Execute()
}
