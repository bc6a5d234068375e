package main

import (
	"github.com/kruczeks/collectd/cmd/collectd"
)

func main() {
	collectd.Execute()
}
