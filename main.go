package main

import (
	"fmt"
	"io"
	"os"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gtarstream/tarfile"
)

type options struct {
	compression string
	bufferSize  string
	strictEOF   bool
	skipData    bool
	list        bool
	logLevel    string
	logFormat   string
}

func main() {
	cmd := newRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tarcat: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "tarcat [OPTIONS] [ARCHIVE...]",
		Short: "Write the contents of the regular files in tar archives to stdout",
		Long: `tarcat decodes each archive in turn and writes the payloads of its
regular files, concatenated in archive order, to stdout. Headers, padding,
directories, links and other entries produce no output. Archives may be
compressed with gzip, bzip2, xz or zstd. With no ARCHIVE, or when ARCHIVE
is -, the archive is read from stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts, stderr)
			if err != nil {
				return err
			}
			return run(opts, args, stdin, stdout, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.compression, "compression", "c", "auto", "Archive compression (auto, tar, gz, bz2, xz, zst)")
	flags.StringVarP(&opts.bufferSize, "buffer-size", "b", units.BytesSize(float64(tarfile.DefaultBufferSize)), "Size of the read buffer (e.g. 64KiB, 1m)")
	flags.BoolVar(&opts.strictEOF, "strict-eof", false, "Require two zero blocks to end an archive")
	flags.BoolVar(&opts.skipData, "skip-entry-data", false, "Skip the declared contents of non-regular entries such as PAX headers")
	flags.BoolVarP(&opts.list, "list", "t", false, "List entries instead of writing their contents")
	flags.StringVarP(&opts.logLevel, "log-level", "l", "warn", "Set the logging level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Set the logging format (text, json)")
	return cmd
}

func newLogger(opts *options, stderr io.Writer) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", opts.logLevel)
	}
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(lvl)
	switch opts.logFormat {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("unknown log format %q", opts.logFormat)
	}
	return logrus.NewEntry(logger), nil
}

func run(opts *options, args []string, stdin io.Reader, stdout io.Writer, logger *logrus.Entry) error {
	comp, err := tarfile.ParseCompression(opts.compression)
	if err != nil {
		return err
	}
	bufsize, err := units.RAMInBytes(opts.bufferSize)
	if err != nil {
		return errors.Wrapf(err, "invalid buffer size %q", opts.bufferSize)
	}
	if bufsize < 1 || bufsize > 1<<30 {
		return errors.Errorf("buffer size %s out of range", opts.bufferSize)
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, name := range args {
		l := logger.WithField("archive", name)
		tfOpts := []tarfile.Option{
			tarfile.WithCompression(comp),
			tarfile.WithBufferSize(int(bufsize)),
			tarfile.WithLogger(l),
		}
		if opts.strictEOF {
			tfOpts = append(tfOpts, tarfile.WithDecoderOptions(tarfile.WithStrictEndMarker()))
		}
		if opts.skipData {
			tfOpts = append(tfOpts, tarfile.WithDecoderOptions(tarfile.WithSkipEntryData()))
		}
		if opts.list {
			tfOpts = append(tfOpts, tarfile.WithEntryHook(func(e tarfile.Entry) {
				fmt.Fprintf(stdout, "%-10s %10d %s\n", e.TypeName(), e.Size, e.Path())
			}))
		}
		if err := catArchive(name, stdin, stdout, opts.list, l, tfOpts); err != nil {
			return errors.Wrap(err, name)
		}
	}
	return nil
}

func catArchive(name string, stdin io.Reader, stdout io.Writer, list bool, l *logrus.Entry, opts []tarfile.Option) error {
	var (
		tf  *tarfile.TarFile
		err error
	)
	if name == "-" {
		tf, err = tarfile.NewTarFile(stdin, opts...)
	} else {
		tf, err = tarfile.Open(name, opts...)
	}
	if err != nil {
		return err
	}
	defer tf.Close()

	dst := stdout
	if list {
		dst = io.Discard
	}
	n, err := tf.WriteTo(dst)
	if err != nil {
		return err
	}
	l.WithFields(logrus.Fields{
		"compression": tf.Compression.String(),
		"entries":     len(tf.Members),
		"consumed":    units.HumanSize(float64(tf.Offset())),
		"payload":     units.HumanSize(float64(n)),
	}).Info("archive decoded")
	return nil
}
