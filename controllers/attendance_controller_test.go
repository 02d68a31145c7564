package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueCoupon(t *testing.T, r *gin.Engine, employeeID string) string {
	t.Helper()
	w, parsed := doJSON(t, r, http.MethodPost, "/api/v1/coupons", "", gin.H{"employeeId": employeeID})
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, w.Code)
	return dataOf(t, parsed)["coupon"].(map[string]interface{})["couponCode"].(string)
}

func TestMarkEndpoint(t *testing.T) {
	r, db := newTestServer(t)
	seedEmployee(t, db, "AIPL0001", "Asha Nair")
	token := loginToken(t, r)
	code := issueCoupon(t, r, "AIPL0001")

	w, parsed := doJSON(t, r, http.MethodPost, "/api/v1/attendance", token, gin.H{"couponCode": code})
	require.Equal(t, http.StatusCreated, w.Code)
	attendance := dataOf(t, parsed)["attendance"].(map[string]interface{})
	assert.Equal(t, "AIPL0001", attendance["employeeId"])
	assert.Equal(t, true, attendance["isPresent"])
}

func TestMarkEndpointConflictCarriesOriginal(t *testing.T) {
	r, db := newTestServer(t)
	seedEmployee(t, db, "AIPL0001", "Asha Nair")
	token := loginToken(t, r)
	code := issueCoupon(t, r, "AIPL0001")

	_, parsed := doJSON(t, r, http.MethodPost, "/api/v1/attendance", token, gin.H{"couponCode": code})
	first := dataOf(t, parsed)["attendance"].(map[string]interface{})

	w, parsed := doJSON(t, r, http.MethodPost, "/api/v1/attendance", token, gin.H{"couponCode": code})
	require.Equal(t, http.StatusConflict, w.Code)
	data := dataOf(t, parsed)
	assert.Equal(t, code, data["couponCode"])
	conflict := data["attendance"].(map[string]interface{})
	assert.Equal(t, first["id"], conflict["id"])
	assert.Equal(t, first["attendanceMarkedAt"], conflict["attendanceMarkedAt"])
}

func TestMarkEndpointUnknownCode(t *testing.T) {
	r, _ := newTestServer(t)
	token := loginToken(t, r)

	w, parsed := doJSON(t, r, http.MethodPost, "/api/v1/attendance", token, gin.H{"couponCode": "NOPE"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Invalid coupon code or coupon expired", parsed["message"])
}

func TestAttendanceRosterEndpoint(t *testing.T) {
	r, db := newTestServer(t)
	seedEmployee(t, db, "AIPL0001", "Asha Nair")
	seedEmployee(t, db, "AIPL0002", "Vikram Shah")
	token := loginToken(t, r)

	code1 := issueCoupon(t, r, "AIPL0001")
	issueCoupon(t, r, "AIPL0002")
	_, _ = doJSON(t, r, http.MethodPost, "/api/v1/attendance", token, gin.H{"couponCode": code1})

	w, parsed := doJSON(t, r, http.MethodGet, "/api/v1/attendance", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, parsed)
	assert.EqualValues(t, 2, data["total"])
	assert.EqualValues(t, 1, data["present"])
	assert.EqualValues(t, 1, data["absent"])

	w, parsed = doJSON(t, r, http.MethodGet, "/api/v1/attendance?status=present", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	roster := dataOf(t, parsed)["roster"].([]interface{})
	require.Len(t, roster, 1)
	entry := roster[0].(map[string]interface{})
	assert.Equal(t, "AIPL0001", entry["employeeId"])
	assert.Equal(t, "Asha Nair", entry["employeeName"])

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/attendance?status=late", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
