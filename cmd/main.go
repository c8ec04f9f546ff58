package main

import (
	"storefront/internal/app"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := app.Run(); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}
