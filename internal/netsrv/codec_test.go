// SPDX-License-Identifier: BSD-3-Clause

package netsrv

import (
	"bytes"
	"reflect"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := Value{ID: 2, Value: 21.5}.Encode()

	if err := WriteFrame(&buf, MsgValue, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	frame, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame.ID != MsgValue {
		t.Fatalf("id: want %v, got %v", MsgValue, frame.ID)
	}

	got, err := DecodeValue(frame.Payload)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if got.ID != 2 || got.Value != 21.5 {
		t.Fatalf("unexpected value: %+v", got)
	}
}

func TestReadFrameRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteFrame(&buf, MsgValue, make([]byte, 16))
	// Overwrite the declared length with something past maxPayload.
	header := buf.Bytes()
	header[2], header[3], header[4], header[5] = 0xff, 0xff, 0xff, 0xff

	if _, err := ReadFrame(&buf); err == nil {
		t.Fatal("expected ReadFrame to reject an oversized payload")
	}
}

func TestSensorConfigOptionalFieldsRoundTrip(t *testing.T) {
	rate := uint32(500)
	cfg := SensorConfig{ID: 7, Alias: "avg", Unit: "C", Rate: &rate, Source: nil}

	got, err := DecodeSensorConfig(cfg.Encode())
	if err != nil {
		t.Fatalf("DecodeSensorConfig: %v", err)
	}
	if got.Source != nil {
		t.Fatalf("expected nil Source, got %v", *got.Source)
	}
	if got.Rate == nil || *got.Rate != rate {
		t.Fatalf("expected Rate %d, got %v", rate, got.Rate)
	}
}

func TestSensorsRoundTrip(t *testing.T) {
	errMsg := "division by zero"
	in := Sensors{Sensors: []SensorRecord{
		{ID: 0, Rate: 1000, Alias: "Tmp0", Unit: "C", Values: []float64{21.1, 20.9}},
		{ID: 7, Rate: 500, Alias: "avg", Unit: "C", Source: strPtr("sensor(0)"), Error: &errMsg},
	}}

	got, err := DecodeSensors(in.Encode())
	if err != nil {
		t.Fatalf("DecodeSensors: %v", err)
	}
	if !reflect.DeepEqual(in, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", in, got)
	}
}

func strPtr(s string) *string { return &s }
