// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"github.com/CrawX/go-mailbridge/cli"
)

func main() {
	cli.Execute()
}
