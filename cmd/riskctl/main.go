// Command riskctl derives the thBILL risk dashboard once, from local files or
// from the published snapshot, and prints it.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
