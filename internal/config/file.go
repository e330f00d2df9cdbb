package config

import (
	"fmt"
	"time"
)

// fileConfig mirrors the TOML file. Zero values mean "keep the default";
// settings for which zero is meaningful are pointers and nil means absent.
type fileConfig struct {
	Matrix struct {
		Width      int        `toml:"width"`
		Height     int        `toml:"height"`
		Brightness *int       `toml:"brightness"`
		Chip       string     `toml:"chip"`
		// Options uses the command line syntax of the rpi-rgb-led-matrix
		// library, e.g. "--led-rows=32 --led-cols=64".
		Options    string     `toml:"options"`
		Pins       filePinMap `toml:"pins"`
	} `toml:"matrix"`

	Data struct {
		BaseURL        string `toml:"base_url"`
		UpdateInterval string `toml:"update_interval"`
		Timeout        string `toml:"timeout"`
		Parallelism    int    `toml:"parallelism"`
	} `toml:"data"`

	Rotation struct {
		Boards []string `toml:"boards"`
	} `toml:"rotation"`

	Layout struct {
		Font          string `toml:"font"`
		FontHeight    int    `toml:"font_height"`
		LineGap       *int   `toml:"line_gap"`
		HeaderY       *int   `toml:"header_y"`
		FirstRowY     *int   `toml:"first_row_y"`
		TopY          *int   `toml:"top_y"`
		RankCellWidth int    `toml:"rank_cell_width"`
		CodeX         *int   `toml:"code_x"`
		NameX         *int   `toml:"name_x"`
		ErrorDwell    string `toml:"error_dwell"`

		Drivers      filePaged `toml:"drivers"`
		Constructors filePaged `toml:"constructors"`
		NextRace     filePaged `toml:"next_race"`
		Qualifying   struct {
			PageSize  int            `toml:"page_size"`
			Dwell     string         `toml:"dwell"`
			RowOffset int            `toml:"row_offset"`
			CodeWidth int            `toml:"code_width"`
			Odd       fileGridColumn `toml:"odd"`
			Even      fileGridColumn `toml:"even"`
		} `toml:"qualifying"`
	} `toml:"layout"`

	Preview struct {
		Listen string `toml:"listen"`
		Scale  int    `toml:"scale"`
	} `toml:"preview"`

	Journal struct {
		Path string `toml:"path"`
	} `toml:"journal"`

	MQTT struct {
		Broker   string `toml:"broker"`
		ClientID string `toml:"client_id"`
		Topic    string `toml:"topic"`
	} `toml:"mqtt"`
}

type filePinMap struct {
	R1  int `toml:"r1"`
	G1  int `toml:"g1"`
	B1  int `toml:"b1"`
	R2  int `toml:"r2"`
	G2  int `toml:"g2"`
	B2  int `toml:"b2"`
	CLK int `toml:"clk"`
	OE  int `toml:"oe"`
	LAT int `toml:"lat"`
	A   int `toml:"a"`
	B   int `toml:"b"`
	C   int `toml:"c"`
	D   int `toml:"d"`
	E   int `toml:"e"`
}

type filePaged struct {
	FirstPageSize int    `toml:"first_page_size"`
	PageSize      int    `toml:"page_size"`
	Dwell         string `toml:"dwell"`
}

type fileGridColumn struct {
	PositionX *int `toml:"position_x"`
	CodeX     *int `toml:"code_x"`
}

func applyFileConfig(cfg *Config, fc fileConfig) error {
	m := &cfg.Matrix
	setInt(&m.Width, fc.Matrix.Width)
	setInt(&m.Height, fc.Matrix.Height)
	setIntPtr(&m.Brightness, fc.Matrix.Brightness)
	setString(&m.Chip, fc.Matrix.Chip)
	applyPins(&m.Pins, fc.Matrix.Pins)
	if fc.Matrix.Options != "" {
		if err := m.ApplyOptions(fc.Matrix.Options); err != nil {
			return err
		}
	}

	d := &cfg.Data
	setString(&d.BaseURL, fc.Data.BaseURL)
	setInt(&d.Parallelism, fc.Data.Parallelism)
	if err := setDuration(&d.UpdateInterval, fc.Data.UpdateInterval, "data.update_interval"); err != nil {
		return err
	}
	if err := setDuration(&d.Timeout, fc.Data.Timeout, "data.timeout"); err != nil {
		return err
	}

	if len(fc.Rotation.Boards) > 0 {
		cfg.Rotation.Boards = append([]string(nil), fc.Rotation.Boards...)
	}

	l := &cfg.Layout
	fl := fc.Layout
	setString(&l.Font, fl.Font)
	setInt(&l.FontHeight, fl.FontHeight)
	setIntPtr(&l.LineGap, fl.LineGap)
	setIntPtr(&l.HeaderY, fl.HeaderY)
	setIntPtr(&l.FirstRowY, fl.FirstRowY)
	setIntPtr(&l.TopY, fl.TopY)
	setInt(&l.RankCellWidth, fl.RankCellWidth)
	setIntPtr(&l.CodeX, fl.CodeX)
	setIntPtr(&l.NameX, fl.NameX)
	if err := setDuration(&l.ErrorDwell, fl.ErrorDwell, "layout.error_dwell"); err != nil {
		return err
	}
	if err := applyPaged(&l.Drivers, fl.Drivers, "layout.drivers"); err != nil {
		return err
	}
	if err := applyPaged(&l.Constructors, fl.Constructors, "layout.constructors"); err != nil {
		return err
	}
	if err := applyPaged(&l.NextRace, fl.NextRace, "layout.next_race"); err != nil {
		return err
	}
	q := &l.Qualifying
	if err := applyPaged(&q.PagedLayout, filePaged{PageSize: fl.Qualifying.PageSize, Dwell: fl.Qualifying.Dwell}, "layout.qualifying"); err != nil {
		return err
	}
	setInt(&q.RowOffset, fl.Qualifying.RowOffset)
	setInt(&q.CodeWidth, fl.Qualifying.CodeWidth)
	setIntPtr(&q.Odd.PositionX, fl.Qualifying.Odd.PositionX)
	setIntPtr(&q.Odd.CodeX, fl.Qualifying.Odd.CodeX)
	setIntPtr(&q.Even.PositionX, fl.Qualifying.Even.PositionX)
	setIntPtr(&q.Even.CodeX, fl.Qualifying.Even.CodeX)

	setString(&cfg.Preview.Listen, fc.Preview.Listen)
	setInt(&cfg.Preview.Scale, fc.Preview.Scale)
	setString(&cfg.Journal.Path, fc.Journal.Path)
	setString(&cfg.MQTT.Broker, fc.MQTT.Broker)
	setString(&cfg.MQTT.ClientID, fc.MQTT.ClientID)
	setString(&cfg.MQTT.Topic, fc.MQTT.Topic)
	return nil
}

// Pin offset 0 is the HAT ID EEPROM line on every Raspberry Pi, so it can
// stand for "unset".
func applyPins(p *PinConfig, fp filePinMap) {
	setInt(&p.R1, fp.R1)
	setInt(&p.G1, fp.G1)
	setInt(&p.B1, fp.B1)
	setInt(&p.R2, fp.R2)
	setInt(&p.G2, fp.G2)
	setInt(&p.B2, fp.B2)
	setInt(&p.CLK, fp.CLK)
	setInt(&p.OE, fp.OE)
	setInt(&p.LAT, fp.LAT)
	setInt(&p.A, fp.A)
	setInt(&p.B, fp.B)
	setInt(&p.C, fp.C)
	setInt(&p.D, fp.D)
	setInt(&p.E, fp.E)
}

func applyPaged(p *PagedLayout, fp filePaged, key string) error {
	setInt(&p.FirstPageSize, fp.FirstPageSize)
	setInt(&p.PageSize, fp.PageSize)
	return setDuration(&p.Dwell, fp.Dwell, key+".dwell")
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setIntPtr(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v, key string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	*dst = d
	return nil
}
