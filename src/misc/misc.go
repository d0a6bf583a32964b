// Package misc contains some misc helper functions etc. for minsketch
package misc

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ErrorCheck is a function to throw error to the log and exit the program
func ErrorCheck(msg error) {
	if msg != nil {
		log.Fatalf("terminated\n\nERROR --> %v\n\n", msg)
	}
}

// CheckRequiredFlags is a function to check for required flags before running a subcommand
func CheckRequiredFlags(flags *pflag.FlagSet) error {
	requiredError := false
	flagName := ""

	flags.VisitAll(func(flag *pflag.Flag) {
		requiredAnnotation := flag.Annotations[cobra.BashCompOneRequiredFlag]
		if len(requiredAnnotation) == 0 {
			return
		}
		flagRequired := requiredAnnotation[0] == "true"
		if flagRequired && !flag.Changed {
			requiredError = true
			flagName = flag.Name
		}
	})

	if requiredError {
		return errors.New("Required flag `" + flagName + "` has not been set")
	}

	return nil
}

// StartLogging is a function to start the log, creating the log directory if needed
func StartLogging(logFile string) *os.File {
	if logDir := filepath.Dir(logFile); logDir != "." {
		if _, err := os.Stat(logDir); os.IsNotExist(err) {
			if err := os.MkdirAll(logDir, 0700); err != nil {
				log.Fatal("can't create specified directory for log")
			}
		}
	}
	logFH, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal(err)
	}
	return logFH
}

// CheckSTDIN is a function to check that STDIN can be read
func CheckSTDIN() error {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return errors.New("error with STDIN")
	}
	if (stat.Mode() & os.ModeNamedPipe) == 0 {
		return errors.New("no STDIN found")
	}
	return nil
}

// CheckFile is a function to check that a file can be read
func CheckFile(file string) error {
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("file does not exist: %v", file)
		}
		return errors.Errorf("can't access file (check permissions): %v", file)
	}
	return nil
}

// CheckFiles is a function to check that a set of files can be read, "-" is taken to mean STDIN
func CheckFiles(files []string) error {
	for _, file := range files {
		if file == "-" {
			if err := CheckSTDIN(); err != nil {
				return err
			}
			continue
		}
		if err := CheckFile(file); err != nil {
			return err
		}
	}
	return nil
}

// AddExtension is a function to make sure a file name ends with the given extension
func AddExtension(file, ext string) string {
	if strings.HasSuffix(file, ext) {
		return file
	}
	return file + ext
}

// PrintMemUsage outputs the current, total and OS memory being used. As well as the number
// of garage collection cycles completed.
// lifted from: https://golangcode.com/print-the-current-memory-usage/
func PrintMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	return fmt.Sprintf("[ Heap Allocations: %vMb, OS Memory: %vMb, Num. GC cycles: %v ]", bToMb(m.HeapAlloc), bToMb(m.Sys), m.NumGC)
}

// bToMb converts bytes to megabytes
func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
