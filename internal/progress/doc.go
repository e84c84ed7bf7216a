// Package progress draws a progress bar for the long batch loops when the
// output is an interactive terminal and stays silent otherwise, so that logs
// and piped output are not polluted with carriage returns.
package progress
