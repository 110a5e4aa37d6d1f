// Package handlers exposes the service layer over HTTP. One route per
// operation, flat JSON bodies, and error kinds mapped onto status codes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/errs"
)

// respondError maps an error's kind to a status code and writes a flat
// error body. The message keeps the upstream detail so the client can show
// it verbatim.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errs.KindOf(err) {
	case errs.KindValidation:
		status = http.StatusBadRequest
	case errs.KindAuthRequired:
		status = http.StatusUnauthorized
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindNoCustomer, errs.KindNoPaymentMethod,
		errs.KindPaymentNotSucceeded, errs.KindPermanentlyUnusable,
		errs.KindAlreadyDetached:
		status = http.StatusConflict
	case errs.KindProcessorLookup, errs.KindProcessorOperation,
		errs.KindRemoteStore:
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}
