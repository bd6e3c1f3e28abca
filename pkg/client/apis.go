package client

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/palmtools/palminfo/pkg/calibration"
	"github.com/palmtools/palminfo/pkg/config"
	"github.com/palmtools/palminfo/pkg/types"
)

// Read asks the daemon to read the calibration of req.Description.
func (c *Client) Read(req types.ReadRequest) (*calibration.Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to marshal read request")
	}

	ret, err := c.Post("/read", string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read calibration")
	}

	var r calibration.Result
	if err := json.Unmarshal([]byte(ret), &r); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal calibration")
	}
	return &r, nil
}

func (c *Client) SetDefaults(d calibration.Defaults) (string, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to marshal defaults")
	}
	return c.Put("/defaults", string(payload))
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return v, nil
}
