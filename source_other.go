//go:build !linux

package main

import "os"

func adviseSequential(*os.File) error {
	return nil
}
