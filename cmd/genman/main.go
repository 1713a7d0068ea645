//go:build ignore

// genman generates the rv man page.
// Usage: go run cmd/genman/main.go > rv.1
package main

import (
	"fmt"
	"os"
)

func main() {
	// Use a fixed date for reproducible builds/CI
	date := "October 2026"

	manpage := fmt.Sprintf(`.TH RV 1 "%s" "rv 0.2.0" "User Commands"
.SH NAME
rv \- measure throughput of data through a pipe
.SH SYNOPSIS
.B rv
[\fIflags\fR] [\fIFILE\fR]
.SH DESCRIPTION
.B rv
copies standard input, or \fIFILE\fR, to standard output without modifying
it, and reports the transfer rate and running total on standard error.
.PP
Copying runs on its own goroutine as fast as the source and sink allow.
The foreground samples a shared byte counter once per interval, so
reporting never slows the copy down. The status line is rewritten in place
with a carriage return; redirecting standard output does not capture it.
.SH OPTIONS
.TP
.BR \-f ", " \-\-file " \fIpath\fR"
Read from \fIpath\fR instead of standard input. \fB\-\fR means standard input.
.TP
.BR \-s ", " \-\-size " \fIbytes\fR"
Expected total size, enabling percentage, progress bar and ETA. Accepts
SI and IEC units. Defaults to the file size when the source is a regular file.
.TP
.BR \-p ", " \-\-progress
Display a progress bar (needs a size).
.TP
.BR \-t ", " \-\-timer
Display total elapsed time.
.TP
.BR \-e ", " \-\-eta
Display the expected time to completion (needs a size).
.TP
.BR \-r ", " \-\-rate
Display the current transfer rate.
.TP
.BR \-n ", " \-\-numeric
Print one line per sample instead of a status line: elapsed seconds with
\fB\-t\fR, the percentage (or total bytes without a size), and the rate in
bytes per second with \fB\-r\fR.
.TP
.BR \-q ", " \-\-quiet
No status output. Data is still copied.
.TP
.B \-\-interval \fIduration\fR
Time between samples (default 1s).
.TP
.B \-\-chunk\-size \fIbytes\fR
Bytes moved per read/write cycle (default 8192).
.TP
.B \-\-config \fIpath\fR
Read settings from \fIpath\fR instead of the default config file.
.TP
.B \-\-log\-file \fIpath\fR
Write a structured log of the transfer to \fIpath\fR.
.TP
.B \-\-debug
Log every sample.
.TP
.BR \-h ", " \-\-help
Show help message.
.TP
.BR \-v ", " \-\-version
Show version information.
.PP
With none of \fB\-p\fR, \fB\-t\fR, \fB\-e\fR or \fB\-r\fR the status line
shows the total and the rate.
.SH SIZE FORMATS
.TP
.B 1048576
Plain bytes
.TP
.B 700MB\fR or \fB700M
700,000,000 bytes (SI, k=1000)
.TP
.B 4GiB
4,294,967,296 bytes (IEC, Ki=1024)
.SH EXAMPLES
Measure a generator:
.PP
.RS
.nf
yes | rv > /dev/null
.fi
.RE
.PP
Copy a disk image with progress bar, timer and ETA:
.PP
.RS
.nf
rv \-pte disk.img | ssh host 'cat > disk.img'
.fi
.RE
.PP
Feed a dialog gauge:
.PP
.RS
.nf
rv \-n \-s 2GB backup.tar 2>&1 > /dev/null | dialog \-\-gauge Copying 7 70
.fi
.RE
.SH EXIT STATUS
0 when the input was copied completely; 1 on any error, after printing
\fB[ERROR]\fR \fImessage\fR to standard error. On a read or write error
standard output holds a correctly ordered prefix of the input.
.SH ENVIRONMENT
Every flag can be set as \fBRV_\fR\fINAME\fR, with dashes turned into
underscores, e.g. \fBRV_INTERVAL=500ms\fR or \fBRV_CHUNK_SIZE=65536\fR.
Flags win over the environment, which wins over the config file.
.SH FILES
.TP
.I $XDG_CONFIG_HOME/rv/config.yaml
Default settings, keyed by long flag name. Falls back to
\fI~/.config/rv/config.yaml\fR.
.SH NOTES
.IP \(bu 2
SIGINT and SIGTERM stop the transfer and print the final status line.
.IP \(bu 2
Rates use decimal units (1 MB = 1,000,000 bytes).
.SH SEE ALSO
.BR pv (1),
.BR dd (1)
`, date)

	fmt.Fprint(os.Stdout, manpage)
}
