package config

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/ptr"

	"github.com/palmtools/palminfo/pkg/calibration"
	"github.com/palmtools/palminfo/pkg/metadata"
)

var (
	builtinDefaults   = calibration.DefaultDefaults()
	defaultFileConfig = &RawFileConfig{
		SizeXMicrons:       ptr.To(float64(builtinDefaults.SizeXMicrons)),
		SizeYMicrons:       ptr.To(float64(builtinDefaults.SizeYMicrons)),
		SizeXPixels:        ptr.To(float64(builtinDefaults.SizeXPixels)),
		SizeYPixels:        ptr.To(float64(builtinDefaults.SizeYPixels)),
		StagePositionX:     ptr.To(float64(builtinDefaults.StagePositionX)),
		StagePositionY:     ptr.To(float64(builtinDefaults.StagePositionY)),
		ZeroStagePositionX: ptr.To(float64(builtinDefaults.ZeroStagePositionX)),
		ZeroStagePositionY: ptr.To(float64(builtinDefaults.ZeroStagePositionY)),
		Charset:            ptr.To(metadata.CharsetAuto),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

// RawFileConfig is the on-disk form of the configuration. Unset fields fall
// back to the built-in defaults.
type RawFileConfig struct {
	SizeXMicrons       *float64 `json:"sizeXMicrons,omitempty"`
	SizeYMicrons       *float64 `json:"sizeYMicrons,omitempty"`
	SizeXPixels        *float64 `json:"sizeXPixels,omitempty"`
	SizeYPixels        *float64 `json:"sizeYPixels,omitempty"`
	StagePositionX     *float64 `json:"stagePositionX,omitempty"`
	StagePositionY     *float64 `json:"stagePositionY,omitempty"`
	ZeroStagePositionX *float64 `json:"zeroStagePositionX,omitempty"`
	ZeroStagePositionY *float64 `json:"zeroStagePositionY,omitempty"`
	Charset            *string  `json:"charset,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	d := c.Defaults()
	rawConfig := &RawFileConfig{
		SizeXMicrons:       ptr.To(float64(d.SizeXMicrons)),
		SizeYMicrons:       ptr.To(float64(d.SizeYMicrons)),
		SizeXPixels:        ptr.To(float64(d.SizeXPixels)),
		SizeYPixels:        ptr.To(float64(d.SizeYPixels)),
		StagePositionX:     ptr.To(float64(d.StagePositionX)),
		StagePositionY:     ptr.To(float64(d.StagePositionY)),
		ZeroStagePositionX: ptr.To(float64(d.ZeroStagePositionX)),
		ZeroStagePositionY: ptr.To(float64(d.ZeroStagePositionY)),
		Charset:            ptr.To(c.Charset()),
	}

	return rawConfig, nil
}

func valueOr(v, def *float64) calibration.Float {
	if v != nil {
		return calibration.Float(*v)
	}
	return calibration.Float(*def)
}

func (f *File) Defaults() calibration.Defaults {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return calibration.Defaults{
		SizeXMicrons:       valueOr(f.c.SizeXMicrons, defaultFileConfig.SizeXMicrons),
		SizeYMicrons:       valueOr(f.c.SizeYMicrons, defaultFileConfig.SizeYMicrons),
		SizeXPixels:        valueOr(f.c.SizeXPixels, defaultFileConfig.SizeXPixels),
		SizeYPixels:        valueOr(f.c.SizeYPixels, defaultFileConfig.SizeYPixels),
		StagePositionX:     valueOr(f.c.StagePositionX, defaultFileConfig.StagePositionX),
		StagePositionY:     valueOr(f.c.StagePositionY, defaultFileConfig.StagePositionY),
		ZeroStagePositionX: valueOr(f.c.ZeroStagePositionX, defaultFileConfig.ZeroStagePositionX),
		ZeroStagePositionY: valueOr(f.c.ZeroStagePositionY, defaultFileConfig.ZeroStagePositionY),
	}
}

// SetDefaults replaces the defaults. NaN and infinite values cannot be
// stored in JSON and leave the current value unchanged.
func (f *File) SetDefaults(d calibration.Defaults) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	setFinite(&f.c.SizeXMicrons, d.SizeXMicrons)
	setFinite(&f.c.SizeYMicrons, d.SizeYMicrons)
	setFinite(&f.c.SizeXPixels, d.SizeXPixels)
	setFinite(&f.c.SizeYPixels, d.SizeYPixels)
	setFinite(&f.c.StagePositionX, d.StagePositionX)
	setFinite(&f.c.StagePositionY, d.StagePositionY)
	setFinite(&f.c.ZeroStagePositionX, d.ZeroStagePositionX)
	setFinite(&f.c.ZeroStagePositionY, d.ZeroStagePositionY)
}

func setFinite(dst **float64, v calibration.Float) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	*dst = ptr.To(f)
}

func (f *File) Charset() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Charset != nil {
		return *f.c.Charset
	}
	return *defaultFileConfig.Charset
}

func (f *File) SetCharset(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Charset = &s
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	d := f.Defaults()
	return logrus.Fields{
		"sizeXMicrons":       d.SizeXMicrons,
		"sizeYMicrons":       d.SizeYMicrons,
		"sizeXPixels":        d.SizeXPixels,
		"sizeYPixels":        d.SizeYPixels,
		"stagePositionX":     d.StagePositionX,
		"stagePositionY":     d.StagePositionY,
		"zeroStagePositionX": d.ZeroStagePositionX,
		"zeroStagePositionY": d.ZeroStagePositionY,
		"charset":            f.Charset(),
	}
}
