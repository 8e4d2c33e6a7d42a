package main

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/levi/internal/config"
)

// flags holds the persistent command line overrides. Only flags set on the
// command line override the configuration file and environment.
type flags struct {
	configPath      string
	country         string
	current         string
	previous        string
	dest            string
	dbURL           string
	dbUser          string
	dbPassword      string
	transformEszett bool
	regex           bool
	fallback        string
	logLevel        string
	logFormat       string
	timeout         string
}

func (f *flags) register(cmd *cobra.Command) {
	p := cmd.PersistentFlags()
	p.StringVar(&f.configPath, "config", "", "configuration file (.json or .yaml); defaults to $LEVI_CONFIG or ./levi.json")
	p.StringVar(&f.country, "country", "", "country code of the extension, e.g. CH")
	p.StringVar(&f.current, "current", "", "current term file (.csv, .tsv, .txt, .xlsx)")
	p.StringVar(&f.previous, "previous", "", "previous term file (not-published only)")
	p.StringVar(&f.dest, "dest", "", "output directory for reports")
	p.StringVar(&f.dbURL, "db-url", "", "terminology database URL (postgres:// or jdbc:postgresql://)")
	p.StringVar(&f.dbUser, "db-user", "", "database user")
	p.StringVar(&f.dbPassword, "db-password", "", "database password")
	p.BoolVar(&f.transformEszett, "transform-eszett", false, "replace ß by ss in German terms before comparing")
	p.BoolVar(&f.regex, "regex", true, "run the orthographic checks on reported terms")
	p.StringVar(&f.fallback, "fallback-language", "", "language code for files without a language column")
	p.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	p.StringVar(&f.logFormat, "log-format", "", "text or json")
	p.StringVar(&f.timeout, "timeout", "", "run time limit, e.g. 30m; 0 disables")
}

// options returns a config option for every flag set on cmd.
func (f *flags) options(cmd *cobra.Command) []config.Option {
	var opts []config.Option
	set := func(name string, opt config.Option) {
		if cmd.Flags().Changed(name) {
			opts = append(opts, opt)
		}
	}

	set("country", func(c *config.Config) { c.Settings.CountryCode = f.country })
	set("current", func(c *config.Config) { c.Paths.CurrentFile = f.current })
	set("previous", func(c *config.Config) { c.Paths.PreviousFile = f.previous })
	set("dest", func(c *config.Config) { c.Paths.OutputDirectory = f.dest })
	set("db-url", func(c *config.Config) { c.Database.URL = f.dbURL })
	set("db-user", func(c *config.Config) { c.Database.Username = f.dbUser })
	set("db-password", func(c *config.Config) { c.Database.Password = f.dbPassword })
	set("transform-eszett", func(c *config.Config) { c.Settings.TransformEszett = f.transformEszett })
	set("regex", func(c *config.Config) { c.Settings.RegexCheck = f.regex })
	set("fallback-language", func(c *config.Config) { c.Settings.FallbackLanguageCode = f.fallback })
	set("log-level", func(c *config.Config) { c.Log.Level = f.logLevel })
	set("log-format", func(c *config.Config) { c.Log.Format = f.logFormat })
	set("timeout", func(c *config.Config) { c.TimeoutRaw = f.timeout })

	return opts
}
