package filestorage

var PinOptions = pinOptions
