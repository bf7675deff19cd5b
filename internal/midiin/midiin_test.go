package midiin

import "testing"

type recordingHandler struct {
	ons  [][2]uint8
	offs []uint8
}

func (r *recordingHandler) NoteOn(note, velocity uint8) {
	r.ons = append(r.ons, [2]uint8{note, velocity})
}

func (r *recordingHandler) NoteOff(note uint8) {
	r.offs = append(r.offs, note)
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name     string
		data     []byte
		wantOns  [][2]uint8
		wantOffs []uint8
	}{
		{"note on", []byte{0x90, 60, 100}, [][2]uint8{{60, 100}}, nil},
		{"note on other channel", []byte{0x93, 72, 1}, [][2]uint8{{72, 1}}, nil},
		{"note off", []byte{0x80, 60, 64}, nil, []uint8{60}},
		{"note on velocity zero is off", []byte{0x90, 60, 0}, nil, []uint8{60}},
		{"control change ignored", []byte{0xb0, 7, 100}, nil, nil},
		{"pitch bend ignored", []byte{0xe0, 0, 64}, nil, nil},
		{"truncated message ignored", []byte{0x90, 60}, nil, nil},
		{"empty ignored", nil, nil, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := &recordingHandler{}
			Decode(c.data, h)
			if len(h.ons) != len(c.wantOns) {
				t.Fatalf("got %d note ons, want %d", len(h.ons), len(c.wantOns))
			}
			for i := range c.wantOns {
				if h.ons[i] != c.wantOns[i] {
					t.Fatalf("note on %d = %v, want %v", i, h.ons[i], c.wantOns[i])
				}
			}
			if len(h.offs) != len(c.wantOffs) {
				t.Fatalf("got %d note offs, want %d", len(h.offs), len(c.wantOffs))
			}
			for i := range c.wantOffs {
				if h.offs[i] != c.wantOffs[i] {
					t.Fatalf("note off %d = %d, want %d", i, h.offs[i], c.wantOffs[i])
				}
			}
		})
	}
}
