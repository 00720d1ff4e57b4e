// Command csmacd-sim runs CSMA/CD contention trials. Flag handling lives in cmd/.

package main

import (
	"github.com/netsim-lab/csmacd-sim/cmd"
)

func main() {
	cmd.Execute()
}
