// SPDX-License-Identifier: BSD-3-Clause

// Package poll runs the built-in hardware sensor pollers: four I2C-ADC
// thermistor channels, the host thermal zone, and two GPIO tachometers.
package poll
