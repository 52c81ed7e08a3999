package config

import (
	"fmt"
	"log"
)

func RequireNonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}

func MustNonEmpty(value, envName string) {
	if err := RequireNonEmpty(value, envName); err != nil {
		log.Fatal(err)
	}
}
