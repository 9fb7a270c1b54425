// SPDX-License-Identifier: BSD-3-Clause

package hwmon

import "errors"

var (
	// ErrFileNotFound indicates that the specified hwmon file does not exist.
	ErrFileNotFound = errors.New("hwmon file not found")
	// ErrPermissionDenied indicates that access to the hwmon file was denied.
	ErrPermissionDenied = errors.New("permission denied accessing hwmon file")
	// ErrInvalidValue indicates that the value read from or written to hwmon is invalid.
	ErrInvalidValue = errors.New("invalid hwmon value")
	// ErrDeviceNotFound indicates that the specified hwmon device was not found.
	ErrDeviceNotFound = errors.New("hwmon device not found")
	// ErrReadFailure indicates that reading from hwmon failed.
	ErrReadFailure = errors.New("hwmon read failure")
	// ErrWriteFailure indicates that writing to hwmon failed.
	ErrWriteFailure = errors.New("hwmon write failure")
	// ErrInvalidPath indicates that the provided hwmon path is invalid.
	ErrInvalidPath = errors.New("invalid hwmon path")
	// ErrOperationTimeout indicates that the hwmon operation timed out.
	ErrOperationTimeout = errors.New("hwmon operation timeout")
	// ErrNilContext indicates a discovery call was made with a nil context.
	ErrNilContext = errors.New("hwmon: nil context")
	// ErrDiscoveryFailure indicates that device or sensor discovery failed.
	ErrDiscoveryFailure = errors.New("hwmon: discovery failed")
	// ErrReadTimeout indicates a discovery operation exceeded its deadline.
	ErrReadTimeout = errors.New("hwmon: read timed out")
	// ErrAttributeNotSupported indicates a sensor does not expose the
	// requested attribute.
	ErrAttributeNotSupported = errors.New("hwmon: attribute not supported")
	// ErrInvalidConfig indicates a Config or DiscoveryConfig value failed
	// validation.
	ErrInvalidConfig = errors.New("hwmon: invalid configuration")
	// ErrPathNotFound indicates a referenced sysfs path does not exist.
	ErrPathNotFound = errors.New("hwmon: path not found")
	// ErrFileSystemError wraps an unexpected filesystem error.
	ErrFileSystemError = errors.New("hwmon: filesystem error")
	// ErrDeviceUnavailable indicates a hwmon device exists but cannot be read.
	ErrDeviceUnavailable = errors.New("hwmon: device unavailable")
	// ErrInvalidAttribute indicates an unrecognized sensor attribute string.
	ErrInvalidAttribute = errors.New("hwmon: invalid attribute")
	// ErrInvalidSensorIndex indicates a sensor index outside its valid range.
	ErrInvalidSensorIndex = errors.New("hwmon: invalid sensor index")
	// ErrInvalidSensorType indicates an unrecognized sensor type.
	ErrInvalidSensorType = errors.New("hwmon: invalid sensor type")
	// ErrOperationCanceled indicates a caller-supplied context was canceled
	// mid-operation.
	ErrOperationCanceled = errors.New("hwmon: operation canceled")
	// ErrRetryExhausted indicates RetryOperation gave up after its maximum
	// attempts.
	ErrRetryExhausted = errors.New("hwmon: retries exhausted")
	// ErrSensorNotFound indicates no sensor matched the requested criteria.
	ErrSensorNotFound = errors.New("hwmon: sensor not found")
	// ErrValueOutOfRange indicates a value fell outside an allowed range.
	ErrValueOutOfRange = errors.New("hwmon: value out of range")
	// ErrValueParseFailure indicates a sysfs value could not be parsed.
	ErrValueParseFailure = errors.New("hwmon: value parse failure")
)
