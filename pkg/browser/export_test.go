package browser

var WaitDuration = waitDuration
