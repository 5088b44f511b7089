// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"net/url"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/yeetrun/optbind/pkg/option"
	"tailscale.com/util/set"
)

// Severity is the minimum level of log entries an analysis reports.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (Severity) EnumConstants() []option.EnumConstant {
	return []option.EnumConstant{
		{Name: "DEBUG", Value: SeverityDebug},
		{Name: "INFO", Value: SeverityInfo},
		{Name: "WARN", Value: SeverityWarn},
		{Name: "ERROR", Value: SeverityError},
	}
}

// analysisConfig is the global option source of the log analyzer.
type analysisConfig struct {
	Inputs    []option.File     `option:"input" short:"i" help:"Log file to analyze; may be repeated" mandatory:"true" importance:"always"`
	Severity  Severity          `option:"severity" short:"s" help:"Minimum severity to report" importance:"if_unset"`
	Follow    bool              `option:"follow" short:"f" help:"Keep reading files as they grow"`
	Since     time.Duration     `option:"since" help:"Only report entries newer than this"`
	MaxErrors int               `option:"max-errors" update:"least" help:"Stop after this many errors"`
	Labels    map[string]string `option:"label" help:"Label attached to the report"`
	Exclude   set.Set[string]   `option:"exclude" short:"x" help:"Logger name to ignore"`
	Color     *bool             `option:"color" help:"Force colored output on or off"`
	ReportID  uuid.UUID         `option:"report-id" update:"immutable" help:"Identifier stamped on the report"`
}

func defaultAnalysisConfig() *analysisConfig {
	return &analysisConfig{
		Severity:  SeverityInfo,
		MaxErrors: 1000,
	}
}

// uploadConfig controls where reports are sent. Its options are only
// reachable as upload:NAME.
type uploadConfig struct {
	Endpoint   *url.URL        `option:"endpoint" help:"Report collector URL"`
	Retries    int             `option:"retries" update:"greatest" help:"Upload attempts before giving up"`
	Backoff    time.Duration   `option:"backoff" help:"Delay between upload attempts"`
	MinVersion *semver.Version `option:"min-version" update:"greatest" help:"Oldest collector version to talk to"`
}

func (*uploadConfig) OptionClass() option.ClassInfo {
	return option.ClassInfo{Alias: "upload"}
}

func defaultUploadConfig() *uploadConfig {
	return &uploadConfig{
		Retries: 3,
		Backoff: 2 * time.Second,
	}
}
