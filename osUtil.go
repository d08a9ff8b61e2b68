package main

import (
	"errors"
	"os"
	"path/filepath"
)

func IsSamePath(p1 string, p2 string) (bool, error) {
	absPath1, err := filepath.Abs(p1)
	if err != nil {
		return false, err
	}

	absPath2, err := filepath.Abs(p2)
	if err != nil {
		return false, err
	}

	return absPath1 == absPath2, nil
}

func PathExist(p string) (bool, error) {
	_, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return err == nil, err
}

func EnsureDir(dir string) error {
	exist, err := PathExist(dir)
	if err != nil {
		return err
	}

	if exist {
		return nil
	}

	return os.MkdirAll(dir, os.ModePerm)
}
