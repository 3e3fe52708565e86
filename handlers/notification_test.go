package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dinesphere-backend/models"
)

func TestGetNotifications_UnreadOnlyFilter(t *testing.T) {
	db := freshDB()
	router := setupNotificationRouter(db)
	user, token := seedTestUser(db, "diner@test.com", "customer")
	seedNotification(db, user.ID, false)
	seedNotification(db, user.ID, false)
	seedNotification(db, user.ID, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/notifications", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if list := responseList(w); len(list) != 3 {
		t.Errorf("expected 3 notifications, got %d", len(list))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/notifications?unread_only=true", nil, token))
	if list := responseList(w); len(list) != 2 {
		t.Errorf("expected 2 unread notifications, got %d", len(list))
	}
}

func TestGetUnreadCount(t *testing.T) {
	db := freshDB()
	router := setupNotificationRouter(db)
	user, token := seedTestUser(db, "diner@test.com", "customer")
	other, _ := seedTestUser(db, "other@test.com", "customer")
	seedNotification(db, user.ID, false)
	seedNotification(db, user.ID, true)
	seedNotification(db, other.ID, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/notifications/unread-count", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if data := responseData(w); data["unread_count"].(float64) != 1 {
		t.Errorf("expected unread_count 1, got %v", data["unread_count"])
	}
}

func TestMarkAsRead(t *testing.T) {
	db := freshDB()
	router := setupNotificationRouter(db)
	user, token := seedTestUser(db, "diner@test.com", "customer")
	n := seedNotification(db, user.ID, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/notifications/"+n.ID.String()+"/read", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Notification
	db.Where("id = ?", n.ID).First(&updated)
	if !updated.IsRead {
		t.Errorf("notification was not marked as read")
	}
}

func TestMarkAsRead_OtherUsersNotificationHidden(t *testing.T) {
	db := freshDB()
	router := setupNotificationRouter(db)
	owner, _ := seedTestUser(db, "owner@test.com", "customer")
	_, otherToken := seedTestUser(db, "other@test.com", "customer")
	n := seedNotification(db, owner.ID, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/notifications/"+n.ID.String()+"/read", nil, otherToken))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestMarkAllAsRead(t *testing.T) {
	db := freshDB()
	router := setupNotificationRouter(db)
	user, token := seedTestUser(db, "diner@test.com", "customer")
	seedNotification(db, user.ID, false)
	seedNotification(db, user.ID, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/notifications/read-all", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 unread, got %d", count)
	}
}

func TestGetPreferences_CreatedWithDefaults(t *testing.T) {
	db := freshDB()
	router := setupNotificationRouter(db)
	_, token := seedTestUser(db, "diner@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/notifications/preferences", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := responseData(w)
	if !data["push_notifications"].(bool) {
		t.Errorf("expected push_notifications default true")
	}
	if data["sms_notifications"].(bool) {
		t.Errorf("expected sms_notifications default false")
	}
}

func TestUpdatePreferences_PartialUpdate(t *testing.T) {
	db := freshDB()
	router := setupNotificationRouter(db)
	_, token := seedTestUser(db, "diner@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/notifications/preferences", map[string]interface{}{
		"promotions": false,
	}, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := responseData(w)
	if data["promotions"].(bool) {
		t.Errorf("expected promotions false after update")
	}
}

func TestCreateNotification_AdminOnly(t *testing.T) {
	db := freshDB()
	router := setupNotificationRouter(db)
	target, _ := seedTestUser(db, "diner@test.com", "customer")
	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	_, customerToken := seedTestUser(db, "other@test.com", "customer")

	body := map[string]interface{}{
		"user_id": target.ID.String(),
		"type":    "promotion",
		"title":   "Weekend offer",
		"message": "Double points this weekend",
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/notifications", body, customerToken))
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer: expected 403, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/notifications", body, adminToken))
	if w.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", target.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 notification for target user, got %d", count)
	}
}
