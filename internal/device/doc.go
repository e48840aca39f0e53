// Package device is the accelerator execution context: an explicit value
// owning device memory, host/device transfers and kernel launches.
//
// The API follows the usual driver shape (allocate, copy in, launch, copy
// out, free) so the executor reads the same against real hardware. This
// implementation runs kernels on the host CPU, one lane per logical core.
package device
