// Package main polls an HC-SR04 ultrasonic sensor and prints the distance it reads.
package main

import (
	"os"

	"go.viam.com/hcsr04/logging"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		logging.Global().Errorw("ultrasonic failed", "error", err)
		os.Exit(1)
	}
}
