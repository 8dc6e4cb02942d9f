/*package lib contains the configuration and top-level pipeline of imba: it
turns a config file into Args, checks that the input files are usable, and
runs the evaluation. Almost all of the heavy lifting is done by lib/'s
subpackages: dims chooses the process grid, snapio reads the particles, bins
bins them, stats summarizes the bins, and compress writes histograms to disk.
*/
package lib

var (
	// Version is the version of the software. This can potentially be used
	// to differentiate between breaking changes to the input/output format.
	Version = "0.2.0"
)
