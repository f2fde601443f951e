package main

import (
	"fmt"
	"os"

	"github.com/SebastinST/tms-backend/internal/workflow"
)

// fatalError prints the error and exits.
func fatalError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// fatalWorkflow prints a workflow error with its kind and exits with a
// code distinguishing caller mistakes from infrastructure faults.
func fatalWorkflow(err error) {
	kind := workflow.KindOf(err)
	fmt.Fprintf(os.Stderr, "Error (%s): %v\n", kind, err)
	if kind == workflow.KindInternal {
		os.Exit(2)
	}
	os.Exit(1)
}

// requireFlag exits when a required flag value is empty.
func requireFlag(name, value string) {
	if value == "" {
		fmt.Fprintf(os.Stderr, "Error: --%s is required\n", name)
		os.Exit(1)
	}
}
