package app_errors

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrTokenNotFound = errors.New("token not found")
var ErrTokenExpired = errors.New("token expired")
var ErrCourseNotFound = errors.New("course not found")
var ErrCourseNotPublished = errors.New("course not published")
var ErrVideoNotFound = errors.New("video not found")
var ErrNoteNotFound = errors.New("note not found")
var ErrQuizNotFound = errors.New("quiz not found")
var ErrQuestionNoCorrectOption = errors.New("question must have exactly one correct option")
var ErrEnrollmentNotFound = errors.New("enrollment not found")
var ErrAlreadyEnrolled = errors.New("user already has a pending or approved enrollment for this course")
var ErrEnrollmentDecided = errors.New("enrollment already decided")
var ErrEnrollmentConflict = errors.New("enrollment was modified concurrently")
var ErrNotApproved = errors.New("enrollment not approved for this course")
var ErrQuizNotStarted = errors.New("no quiz in progress")
var ErrQuizInProgress = errors.New("another quiz is already in progress")
var ErrUnknownQuestion = errors.New("question does not belong to the quiz in progress")
var ErrAlreadyReviewed = errors.New("course already reviewed")
var ErrReviewNotFound = errors.New("review not found")
var ErrNotImage = errors.New("not image")
var ErrFileSize = errors.New("file size error")
var ErrMediaNotFound = errors.New("media not found")
