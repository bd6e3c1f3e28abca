package daemon

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/palmtools/palminfo/pkg/calibration"
	"github.com/palmtools/palminfo/pkg/config"
	"github.com/palmtools/palminfo/pkg/types"
	"github.com/palmtools/palminfo/pkg/version"
)

const (
	resultOK        = "ok"
	resultCancelled = "cancelled"
	resultError     = "error"
)

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func setDefaults(c *gin.Context) {
	// Fields absent from the body keep their current value.
	d := conf.Defaults()
	if err := c.BindJSON(&d); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := checkFinite(d); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	conf.SetDefaults(d)
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	logrus.WithFields(conf.LogrusFields()).Infof("defaults updated")

	c.IndentedJSON(http.StatusCreated, "ok")
}

// checkFinite rejects defaults the config file cannot store.
func checkFinite(d calibration.Defaults) error {
	raw := calibration.RawFields(d)
	for _, name := range calibration.FieldNames {
		if v, _ := raw.Get(name); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("default %s must be finite, got %v", name, v)
		}
	}
	return nil
}

// readCalibration reads the calibration of the posted description. The
// daemon cannot ask anyone, so fields missing from the description are
// answered by the request overrides or the configured defaults.
func readCalibration(m *metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ReadRequest
		if err := c.BindJSON(&req); err != nil {
			c.IndentedJSON(http.StatusBadRequest, err.Error())
			_ = c.AbortWithError(http.StatusBadRequest, err)
			return
		}

		src := &calibration.ValueSource{Values: req.Overrides, Cancel: req.Cancel}
		b := calibration.NewBuilder(conf.Defaults(), src)

		path := calibration.DetectPath(req.Description)
		err := b.Read(c.Request.Context(), req.Description)
		switch {
		case errors.Is(err, calibration.ErrUserCancelled):
			m.observe(path, resultCancelled, b.Raw())
			c.IndentedJSON(http.StatusConflict, err.Error())
			_ = c.AbortWithError(http.StatusConflict, err)
			return
		case err != nil:
			m.observe(path, resultError, b.Raw())
			logrus.Errorf("read calibration failed: %v", err)
			c.IndentedJSON(http.StatusInternalServerError, err.Error())
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		r, _ := b.Result()
		m.observe(r.Path, resultOK, r.Raw)

		logrus.WithFields(logrus.Fields{
			"path":        r.Path,
			"calibration": r.Calibration.String(),
			"position":    r.Position.String(),
		}).Infof("calibration read")

		c.IndentedJSON(http.StatusOK, r)
	}
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
