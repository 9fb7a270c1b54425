// SPDX-License-Identifier: BSD-3-Clause

// Package hwmon provides a comprehensive interface for interacting with the Linux hwmon (hardware monitoring)
// subsystem through sysfs. This package enables BMC (Baseboard Management Controller) systems and other
// applications to read sensor values, control fans, and manage hardware monitoring devices in a safe and
// efficient manner.
//
// # Overview
//
// The Linux hwmon subsystem exposes hardware monitoring devices through the sysfs filesystem under
// /sys/class/hwmon/. Each hwmon device typically represents a monitoring chip (temperature sensors,
// voltage sensors, fan controllers, etc.) and provides various attributes for reading sensor values
// and controlling device behavior.
//
// This package provides the following key features:
//   - Automatic discovery of hwmon devices by name and label
//   - Reading and writing of integer and string sysfs attributes
//   - Context-aware operations with timeout support
//   - A RetryOperation helper for retrying failed operations
//   - Support for various sensor types (temperature, voltage, fan, power, etc.)
//   - Thread-safe operations for concurrent access
//   - Structured error handling with specific error types
//   - Comprehensive validation of sensor paths and values
//
// # Core Concepts
//
// Hwmon Device: A hardware monitoring device exposed by the kernel through sysfs. Each device
// has a unique hwmon number (e.g., hwmon0, hwmon1) and typically contains multiple sensors.
//
// Sensor: An individual monitoring point within a hwmon device. Sensors have types (temp, fan,
// voltage, etc.) and provide various attributes like input values, labels, limits, and alarms.
//
// Attribute: A specific property of a sensor exposed as a file in sysfs. Common attributes include:
//   - _input: Current sensor reading
//   - _label: Human-readable sensor name
//   - _min/_max: Minimum/maximum thresholds
//   - _crit: Critical threshold
//   - _alarm: Alarm status
//   - _enable: Enable/disable sensor
//
// Sensor Path: The complete sysfs path to a sensor attribute, constructed from the hwmon device
// path and the specific attribute file.
//
// # Basic Usage
//
// Reading a temperature attribute of a named device:
//
//	ctx := context.Background()
//	devicePath, err := FindDeviceByNameCtx(ctx, "k10temp")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	milliC, err := ReadIntCtx(ctx, filepath.Join(devicePath, "temp1_input"))
//	if err != nil {
//		log.Printf("Failed to read sensor: %v", err)
//		return
//	}
//	fmt.Printf("CPU temperature: %.1f°C\n", float64(milliC)/1000)
//
// Discovering all temperature sensors:
//
//	discoverer := NewDiscoverer()
//	sensors, err := discoverer.DiscoverSensors(ctx, SensorTypeTemperature)
//	if err != nil {
//		log.Printf("Discovery failed: %v", err)
//		return
//	}
//
//	for _, sensor := range sensors {
//		path, err := sensor.GetAttributePath(AttributeInput)
//		if err != nil {
//			continue
//		}
//		milliC, err := ReadIntCtx(ctx, path)
//		if err != nil {
//			continue
//		}
//		fmt.Printf("%s: %.1f°C\n", sensor.Label, float64(milliC)/1000)
//	}
//
// Controlling a fan through its PWM attribute (0-255):
//
//	pwmPath := filepath.Join(devicePath, BuildSensorFilename(SensorTypePWM, 1, AttributeInput))
//
//	// Set fan to 50% duty
//	if err := WriteIntCtx(ctx, pwmPath, 127); err != nil {
//		log.Printf("Failed to set fan speed: %v", err)
//	}
//
// # Device Discovery
//
// The package provides automatic discovery of hwmon devices and sensors:
//
//	discoverer := NewDiscoverer(
//		WithDiscoveryPath("/sys/class/hwmon"),
//		WithDiscoveryTimeout(10*time.Second),
//	)
//
//	// Find device by name
//	device, err := discoverer.FindDevice(ctx, "k10temp")
//	if err != nil {
//		log.Printf("Device not found: %v", err)
//		return
//	}
//
//	// Get all sensors for the device
//	sensors, err := device.GetSensors(ctx)
//	if err != nil {
//		log.Printf("Failed to get sensors: %v", err)
//		return
//	}
//
// # Sensor Types and Values
//
// Attribute values are the raw integers the kernel exposes, in hwmon units;
// this package does not scale them:
//
//	// Temperature sensors (millidegree Celsius)
//	fmt.Printf("Temperature: %.1f°C\n", float64(raw)/1000)
//
//	// Voltage sensors (millivolts)
//	fmt.Printf("Voltage: %.3fV\n", float64(raw)/1000)
//
//	// Fan sensors (RPM)
//	fmt.Printf("Fan speed: %d RPM\n", raw)
//
//	// Power sensors (microwatts)
//	fmt.Printf("Power: %.2fW\n", float64(raw)/1e6)
//
// # Configuration and Options
//
// Config describes one sensor attribute and resolves its sysfs path:
//
//	config := NewConfig(
//		WithDevice("hwmon0"),
//		WithSensorIndex(1),  // Use temp1_input instead of label
//		WithSensorType(SensorTypeTemperature),
//		WithTimeout(5*time.Second),
//		WithRetry(3, 100*time.Millisecond),
//		WithValidation(true),
//		WithCaching(true, 1*time.Second),
//	)
//	path := config.GetSensorPath() // /sys/class/hwmon/hwmon0/temp1_input
//
// Config only validates and stores these settings. No read or write function
// in this package takes a Config, so its retry, validation and caching
// settings are not applied to any sysfs access.
//
// # Error Handling
//
// The package provides structured error handling with specific error types:
//
//	devicePath, err := FindDeviceByNameCtx(ctx, "k10temp")
//	if err != nil {
//		switch {
//		case errors.Is(err, ErrDeviceNotFound):
//			log.Printf("Hwmon device not found")
//		case errors.Is(err, ErrOperationTimeout):
//			log.Printf("Device lookup timed out")
//		default:
//			log.Printf("Unexpected error: %v", err)
//		}
//		return
//	}
//
//	value, err := ReadIntCtx(ctx, filepath.Join(devicePath, "temp1_input"))
//	if err != nil {
//		switch {
//		case errors.Is(err, ErrFileNotFound):
//			log.Printf("Sensor attribute not found")
//		case errors.Is(err, ErrPermissionDenied):
//			log.Printf("Permission denied accessing sensor")
//		case errors.Is(err, ErrOperationTimeout):
//			log.Printf("Read operation timed out")
//		case errors.Is(err, ErrInvalidValue):
//			log.Printf("Invalid sensor value read")
//		default:
//			log.Printf("Read error: %v", err)
//		}
//		return
//	}
//
// # Thread Safety
//
// All operations in this package are thread-safe. Multiple goroutines can safely:
//   - Read from the same or different sensors simultaneously
//   - Perform device discovery operations concurrently
//   - Access sensor metadata and configuration
//   - Write to different sensors (writes to the same sensor should be coordinated by the caller)
//
// The implementation uses appropriate synchronization mechanisms to ensure data consistency
// while allowing concurrent access where safe.
//
// # BMC Integration
//
// This package is designed specifically for BMC systems where hardware monitoring is critical:
//
// Temperature Monitoring: Monitor CPU, GPU, motherboard, and ambient temperatures for thermal
// management and protection.
//
//	tempSensors, _ := discoverer.DiscoverSensors(ctx, SensorTypeTemperature)
//	for _, sensor := range tempSensors {
//		path, err := sensor.GetAttributePath(AttributeInput)
//		if err != nil {
//			continue
//		}
//		milliC, _ := ReadIntCtx(ctx, path)
//		if milliC > 85000 {
//			// Trigger thermal protection
//		}
//	}
//
// Fan Control: discovered PWM sensors carry Writable when their value file
// can be opened for writing.
//
//	pwmSensors, _ := discoverer.DiscoverSensors(ctx, SensorTypePWM)
//	for _, sensor := range pwmSensors {
//		if sensor.Writable {
//			path, _ := sensor.GetAttributePath(AttributeInput)
//			_ = WriteIntCtx(ctx, path, duty)
//		}
//	}
//
// # Performance Considerations
//
// The package includes several performance optimizations:
//   - Discoverer caches discovery results (30 seconds by default; see WithDiscoveryCache)
//   - Efficient device discovery with early termination
//   - Minimal memory allocations during normal operations
//   - Context-aware operations that can be canceled
//   - A RetryOperation helper to handle transient errors
//
// Sensor values are not cached: every ReadIntCtx or ReadStringCtx call reads
// sysfs.
//
// # Integration with Other Packages
//
// In this module, internal/poll reads host temperatures through ReadIntCtx and
// a Discoverer, and internal/actuator writes PWM attributes through
// WriteIntCtx and WriteStringCtx.
package hwmon
