//go:build !unix

package commands

func checkFD(int32) error { return nil }
