package main

import "flag"

// Options holds CLI options for the echo demo.
type Options struct {
	ConfigPath string
	SubjectID  int
	ServiceID  int
	Message    string
}

// ParseFlags parses CLI flags from args and returns Options.
func ParseFlags(args []string) Options {
	fs := flag.NewFlagSet("meshbus-echo", flag.ExitOnError)
	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config file")
	fs.IntVar(&opts.SubjectID, "subject", 100, "Subject id for the pub/sub leg")
	fs.IntVar(&opts.ServiceID, "service", 7, "Service id for the request/response leg")
	fs.StringVar(&opts.Message, "message", "hello meshbus", "Payload text")
	_ = fs.Parse(args)
	return opts
}
